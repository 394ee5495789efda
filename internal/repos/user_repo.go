package repos

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT id,email,name,password_hash,role,COALESCE(phone,'') AS phone,COALESCE(address,'') AS address
	  FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT id,email,name,password_hash,role,COALESCE(phone,'') AS phone,COALESCE(address,'') AS address
	  FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and their cart in one transaction. The cart exists
// for the whole life of the user; nothing creates carts lazily elsewhere.
func (r *UserRepo) Create(u *domain.User) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role,phone,address)
	  VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role, u.Phone, u.Address); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO carts(id,user_id) VALUES('cart-'||?, ?)`, u.ID, u.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateProfile changes the fields a user may edit about themselves. Email,
// role and password stay out of reach of this path.
func (r *UserRepo) UpdateProfile(id, name, phone, address string) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET name=?, phone=?, address=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, name, phone, address, id)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,
             COALESCE(u.phone,'') AS phone,COALESCE(u.address,'') AS address
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
