package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
)

const userColumns = "user_id, created_at, updated_at, username, email, password, role, address, balance"

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, role, address, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		args.Username, args.Email, args.Password, args.Role, args.Address, args.Balance)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user `%s`", args.Username)
	}
	return user, nil
}

func (u *UserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id `%d`", userID)
	}
	return user, nil
}

func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return user, nil
}

func (u *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	rows, err := u.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, convertErr(err, "getting all users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning user row")
		}
		users = append(users, *user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating user rows")
	}
	return users, nil
}

func (u *UserRepository) UpdateUser(ctx context.Context, args repoargs.UpdateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `
		UPDATE users
		SET username = $2, email = $3, password = $4, role = $5, address = $6, balance = $7, updated_at = now()
		WHERE user_id = $1
		RETURNING `+userColumns,
		args.ID, args.Username, args.Email, args.Password, args.Role, args.Address, args.Balance)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating user with id `%d`", args.ID)
	}
	return user, nil
}

func (u *UserRepository) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := u.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return convertErr(err, "deleting user with id `%d`", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting user with id `%d`", userID)
	}
	return nil
}

// DebitBalance списывает amount с баланса юзера условным обновлением: строка изменится лишь если
// баланса достаточно. Ноль затронутых строк трактуется как нехватка баланса либо отсутствие юзера.
func (u *UserRepository) DebitBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := u.db.Exec(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2`,
		userID, amount)
	if err != nil {
		return convertErr(err, "debiting balance of user with id `%d`", userID)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := u.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); checkErr != nil {
			return convertErr(checkErr, "checking user existence with id `%d`", userID)
		}
		if !exists {
			return convertErr(errNoRowsAffected, "debiting balance of user with id `%d`", userID)
		}
		return domain.ErrNotEnoughBalance
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.Address,
		&user.Balance,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
