package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateTitle = errors.New("title already exists")
	ErrNotFound       = errors.New("record not found")
)

func CreateUser(db *sql.DB, name, email, passwordHash string, role Role) (int, error) {
	res, err := db.Exec(`INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, string(role))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	row := db.QueryRow(`SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func GetUserByID(db *sql.DB, id int) (*User, error) {
	row := db.QueryRow(`SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var hash sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	return &u, nil
}

// CreateSession revokes any live sessions for the user before inserting the
// new one, so at most one session per user is valid at a time.
func CreateSession(db *sql.DB, userID int, sessionID string, expires time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE user_id = ? AND revoked_at IS NULL`, userID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`, sessionID, userID, expires); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func GetSession(db *sql.DB, id string) (*Session, error) {
	row := db.QueryRow(`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id)
	var s Session
	var revoked sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	return &s, nil
}

func RevokeSession(db *sql.DB, id string) error {
	_, err := db.Exec(`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE id = ? AND revoked_at IS NULL`, id)
	return err
}

func CreatePost(db *sql.DB, authorID int, title, subtitle, date, body, imgURL string) (int, error) {
	res, err := db.Exec(`INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?)`,
		authorID, title, subtitle, date, body, imgURL)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: blog_posts.title") {
			return 0, ErrDuplicateTitle
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func GetPost(db *sql.DB, id int) (*BlogPost, error) {
	row := db.QueryRow(`SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url
        FROM blog_posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`, id)
	var p BlogPost
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ListPosts(db *sql.DB) ([]BlogPost, error) {
	rows, err := db.Query(`SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url
        FROM blog_posts p JOIN users u ON u.id = p.author_id ORDER BY p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost overwrites the editable fields. Author, id, and date stay as
// they were created.
func UpdatePost(db *sql.DB, id int, title, subtitle, body, imgURL string) error {
	res, err := db.Exec(`UPDATE blog_posts SET title = ?, subtitle = ?, body = ?, img_url = ? WHERE id = ?`,
		title, subtitle, body, imgURL, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: blog_posts.title") {
			return ErrDuplicateTitle
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes the post and its comments in one transaction.
func DeletePost(db *sql.DB, id int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if n == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	return tx.Commit()
}

func CreateComment(db *sql.DB, postID, userID int, text string) error {
	_, err := db.Exec(`INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?)`, text, userID, postID)
	return err
}

func ListCommentsForPost(db *sql.DB, postID int) ([]Comment, error) {
	rows, err := db.Query(`SELECT c.id, c.post_id, c.author_id, u.name, u.email, c.text, c.created_at
        FROM comments c JOIN users u ON u.id = c.author_id WHERE c.post_id = ? ORDER BY c.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cs []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.AuthorEmail, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
