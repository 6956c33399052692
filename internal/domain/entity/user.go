package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu     UserState = "main_menu"     // В главном меню
	StateAwaitingXray UserState = "awaiting_xray" // Ожидание рентгеновского снимка
	StateAwaitingMask UserState = "awaiting_mask" // Ожидание маски сегментации
	StateProcessing   UserState = "processing"    // Идёт измерение
)

// User представляет пользователя бота
type User struct {
	ID            int64     // Telegram User ID
	ChatID        int64     // Telegram Chat ID
	State         UserState // Текущее состояние пользователя
	ResolutionPPI float64   // Разрешение снимков пользователя, 0 значит по умолчанию
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Resolution возвращает PPI пользователя или fallback, если он не задан.
func (u *User) Resolution(fallback float64) float64 {
	if u.ResolutionPPI > 0 {
		return u.ResolutionPPI
	}
	return fallback
}
