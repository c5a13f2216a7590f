package demos

import (
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// User is the record UserFetcher loads.
type User struct {
	ID    int
	Name  string
	Email string
	Posts int
}

// ErrNoSuchUser is returned by MockUsers for ids outside 1..10.
var ErrNoSuchUser = errors.New("demos: no such user")

// MockUsers returns a deterministic user for ids 1 through 10.
func MockUsers(id int) (User, error) {
	if id < 1 || id > 10 {
		return User{}, ErrNoSuchUser
	}
	return User{
		ID:    id,
		Name:  fmt.Sprintf("User %d", id),
		Email: fmt.Sprintf("user%d@example.com", id),
		Posts: id*7%10 + 1,
	}, nil
}

// FetcherProps configures UserFetcher.
type FetcherProps struct {
	Clock Clock
	Delay time.Duration

	// Fetch loads a user; MockUsers when nil.
	Fetch func(id int) (User, error)
}

// FetcherView is the output of UserFetcher.
type FetcherView struct {
	UserID  int
	Loading bool
	User    *User
	Error   string

	SetUserID func(id int)
}

func (v FetcherView) String() string {
	switch {
	case v.Loading:
		return fmt.Sprintf("user %d: loading", v.UserID)
	case v.Error != "":
		return fmt.Sprintf("user %d: error: %s", v.UserID, v.Error)
	case v.User != nil:
		return fmt.Sprintf("user %d: %s <%s> posts=%d", v.UserID, v.User.Name, v.User.Email, v.User.Posts)
	default:
		return fmt.Sprintf("user %d: idle", v.UserID)
	}
}

// UserFetcher loads a user whenever the selected id changes. Results are
// delivered after a simulated delay; a result for an id that is no longer
// selected, or that arrives after unmount, is dropped.
func UserFetcher(in *hooks.Instance) any {
	props := hooks.PropsAs[FetcherProps](in)
	fetch := props.Fetch
	if fetch == nil {
		fetch = MockUsers
	}

	userID, setUserID := hooks.UseState(in, 1)
	user, setUser := hooks.UseState[*User](in, nil)
	loading, setLoading := hooks.UseState(in, false)
	errMsg, setErr := hooks.UseState(in, "")

	// active holds the id of the request whose result is still wanted.
	active := hooks.UseRef(in, 0)

	hooks.UseEffect(in, func() hooks.Cleanup {
		id := userID
		active.Set(id)
		setLoading.Set(true)
		setErr.Set("")

		stop := props.Clock.After(props.Delay, func() {
			if active.Current() != id {
				return
			}
			u, err := fetch(id)
			if err != nil {
				setErr.Set("Failed to fetch data")
				setUser.Set(nil)
			} else {
				setUser.Set(&u)
			}
			setLoading.Set(false)
		})

		return func() {
			active.Set(0)
			stop()
		}
	}, hooks.On(userID))

	return FetcherView{
		UserID:  userID,
		Loading: loading,
		User:    user,
		Error:   errMsg,
		SetUserID: func(id int) {
			if id < 1 {
				id = 1
			}
			setUserID.Set(id)
		},
	}
}
