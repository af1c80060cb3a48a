package domain

type UserRole string

const (
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	OrgID        string   `json:"orgId"`
	PasswordHash string   `json:"-"`
}

type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	OrgID string `json:"orgId"`
}
