package models

// User - проекция профиля из сервиса идентификации. Ядро читает ее
// только для проверки прав и никогда не изменяет.
type User struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	IsApproved  bool   `json:"isApproved"`
	RoleTech    bool   `json:"roleTech"`
	RoleTrainer bool   `json:"roleTrainer"`
	RoleAdmin   bool   `json:"roleAdmin"`
}

// CanBidOn проверяет, совпадает ли роль пользователя с типом работы.
func (u User) CanBidOn(t JobType) bool {
	switch t {
	case TechJob:
		return u.RoleTech
	case TrainerJob:
		return u.RoleTrainer
	default:
		return false
	}
}
