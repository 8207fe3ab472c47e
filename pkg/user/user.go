package user

// User is a person tasks can be assigned to. The zero value is the anonymous user.
type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Admin       bool
	Active      bool
}

// Anonymous is the acting user of requests that carry no identity.
var Anonymous = User{}

func (u User) IsAnonymous() bool {
	return u.Id == 0
}
