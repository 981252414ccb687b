package models

// DialogState — шаг многошагового диалога настройки подписки.
// Состояние живёт только в памяти процесса и теряется при перезапуске.
type DialogState int

const (
	DialogNone DialogState = iota
	DialogAwaitingCity
	DialogAwaitingMorningTime
	DialogAwaitingEveningTime
)
