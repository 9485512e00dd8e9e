package repos

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storeledger/internal/domain"
)

// UserRepo holds store operators and the cookie sessions bound to them.
type UserRepo struct{ q sqlx.Ext }

func NewUserRepo(q sqlx.Ext) *UserRepo { return &UserRepo{q: q} }

const userCols = `u.id, u.email, u.name, u.password_hash, u.role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.Get(r.q, &u, `SELECT `+userCols+` FROM users u WHERE LOWER(u.email) = LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.q.Exec(`
		INSERT INTO sessions(id, user_id, last_seen)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, last_seen = CURRENT_TIMESTAMP
	`, sid, userID)
	return err
}

// SessionUser resolves the operator behind sid and refreshes last_seen.
// Sessions idle for longer than idle are treated as signed out; idle <= 0
// disables the check.
func (r *UserRepo) SessionUser(sid string, idle time.Duration) (*domain.User, error) {
	where, args := `s.id = ?`, []any{sid}
	if idle > 0 {
		where += ` AND s.last_seen >= datetime('now', ?)`
		args = append(args, fmt.Sprintf("-%d seconds", int64(idle/time.Second)))
	}
	var u domain.User
	err := sqlx.Get(r.q, &u, `
		SELECT `+userCols+`
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE `+where, args...)
	if err != nil {
		return nil, err
	}
	if _, err := r.q.Exec(`UPDATE sessions SET last_seen = CURRENT_TIMESTAMP WHERE id = ?`, sid); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.q.Exec(`UPDATE sessions SET user_id = NULL, last_seen = CURRENT_TIMESTAMP WHERE id = ?`, sid)
	return err
}

// PruneSessions drops anonymous and long-idle session rows.
func (r *UserRepo) PruneSessions(idle time.Duration) (int64, error) {
	res, err := r.q.Exec(`
		DELETE FROM sessions
		WHERE user_id IS NULL OR last_seen IS NULL OR last_seen < datetime('now', ?)
	`, fmt.Sprintf("-%d seconds", int64(idle/time.Second)))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
