package user

import (
	"context"
	"sort"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	nextId := 2
	data := map[int]User{}
	return &StubUserRepository{nextId: nextId, data: data}
}

// AddUser stores the user, assigning the next id when it has none.
func (s *StubUserRepository) AddUser(user User) User {
	if user.Id == 0 {
		s.nextId++
		user.Id = s.nextId
	}
	s.data[user.Id] = user
	return user
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) GetActiveUsers(ctx context.Context) ([]User, error) {
	var users []User
	for _, user := range s.data {
		if user.Active {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users, nil
}

func (s *StubUserRepository) Reset() {
	s.data = map[int]User{}
}
