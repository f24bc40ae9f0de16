package client

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Auth struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type Member struct {
	ID       int64     `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`
	User     User      `json:"user"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy User      `json:"createdBy"`
	Members   []Member  `json:"members"`
	Tasks     []string  `json:"tasks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Note struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"taskId"`
	Body      string    `json:"body"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Assigned struct {
	ID       int64     `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`
	User     User      `json:"user"`
}

type Task struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"projectId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      Priority   `json:"priority"`
	IsResolved    bool       `json:"isResolved"`
	CreatedBy     User       `json:"createdBy"`
	UpdatedBy     *User      `json:"updatedBy"`
	ClosedBy      *User      `json:"closedBy"`
	ClosedAt      *time.Time `json:"closedAt"`
	ReopenedBy    *User      `json:"reopenedBy"`
	ReopenedAt    *time.Time `json:"reopenedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
	Notes         []Note     `json:"notes"`
	AssignedUsers []Assigned `json:"assignedUsers"`
}

type TaskPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      Priority `json:"priority"`
	AssignedUsers []string `json:"assignedUsers,omitempty"`
}

type SignupPayload struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProjectPayload struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}
