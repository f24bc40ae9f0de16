package models

import "time"

type Project struct {
	ID        string
	Name      string
	CreatedBy UserRef
	Members   []Member
	// TaskIDs is filled by listings only.
	TaskIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	ID        int64
	ProjectID string
	User      UserRef
	JoinedAt  time.Time
}

func (p *Project) IsOwner(userID string) bool {
	return p.CreatedBy.ID == userID
}

func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}
