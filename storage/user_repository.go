package storage

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"roomchat/domain"
	"roomchat/errors"
)

const userKeyFormat = "user:%s"

type diskUser struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	AvatarURL    string `json:"avatar_url"`
	CreatedAt    int64  `json:"created_at"`
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// Create stores a new user, failing with ErrUserExists when the username is
// already taken.
func (r *UserRepository) Create(user domain.User) error {
	key := []byte(fmt.Sprintf(userKeyFormat, user.Username))
	value, err := json.Marshal(diskUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		AvatarURL:    user.AvatarURL,
		CreatedAt:    user.CreatedAt.UnixNano(),
	})
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return errors.ErrUserExists
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

// Get fetches a user by username.
func (r *UserRepository) Get(username string) (domain.User, error) {
	key := []byte(fmt.Sprintf(userKeyFormat, username))

	var disk diskUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		Username:     disk.Username,
		PasswordHash: disk.PasswordHash,
		AvatarURL:    disk.AvatarURL,
		CreatedAt:    time.Unix(0, disk.CreatedAt),
	}, nil
}

// Exists reports whether a username is registered.
func (r *UserRepository) Exists(username string) (bool, error) {
	_, err := r.Get(username)
	if stderrors.Is(err, errors.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AvatarURL returns the stored avatar for a user, or an error when the user
// is unknown.
func (r *UserRepository) AvatarURL(username string) (string, error) {
	user, err := r.Get(username)
	if err != nil {
		return "", err
	}
	return user.AvatarURL, nil
}
