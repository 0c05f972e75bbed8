package entity

import "time"

// User representa un usuario del sistema. La identidad (alta, login) la
// gestiona el colaborador externo; aquí solo se lee para estampar
// processed_by / modified_by.
type User struct {
	ID        string
	Username  string
	Name      string
	Active    bool
	CreatedAt time.Time
}
