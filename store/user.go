package store

type User struct {
	ID           int32
	Username     string
	Nickname     string
	PasswordHash string
	CreatedTs    int64
}

type FindUser struct {
	ID       *int32
	Username *string
}

type DeleteUser struct {
	ID int32
}
