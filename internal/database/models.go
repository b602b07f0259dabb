package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a row in the users table. The email column carries a unique
// index; a violation on insert or update is the authoritative duplicate
// signal.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name       string    `bun:"name,notnull"`
	Email      string    `bun:"email,notnull"`
	SecretHash string    `bun:"secret_hash,notnull"`
	Phone      *string   `bun:"phone"`
	PictureRef *string   `bun:"picture_ref"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:now()"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:now()"`
}
