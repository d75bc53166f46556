package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Member MemberRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Member: NewMemberRepository(db),
	}
}
