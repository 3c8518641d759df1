package store

import (
	"context"
	"fmt"
	"slices"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/gateway"
	"auraz-storefront/internal/ids"
)

// Login authenticates against the backend and records the session.
func (s *Store) Login(ctx context.Context, email, password string) (gateway.LoginResult, error) {
	res, err := s.remote.Login(ctx, email, password)
	if err != nil {
		return gateway.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	user := res.User
	s.mu.Lock()
	s.currentUser = &user
	s.isAdmin = res.IsAdmin
	s.mu.Unlock()
	s.save(ctx, KeyCurrentUser, KeyIsAdmin)
	s.logger.Printf("store: login user=%s admin=%t", user.ID, res.IsAdmin)
	return res, nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.currentUser = nil
	s.isAdmin = false
	s.mu.Unlock()
	s.save(ctx, KeyCurrentUser, KeyIsAdmin)
}

// Register submits a sign-up and refreshes the user list so admins see the
// pending account.
func (s *Store) Register(ctx context.Context, in gateway.Registration) (gateway.RegisterResult, error) {
	res, err := s.remote.Register(ctx, in)
	if err != nil {
		return gateway.RegisterResult{}, fmt.Errorf("register: %w", err)
	}
	if err := s.refreshUsers(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// CurrentUser returns a copy of the logged in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAdmin
}

func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

func (s *Store) refreshUsers(ctx context.Context) error {
	users, err := s.remote.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("refresh users: %w", err)
	}
	s.mu.Lock()
	s.users = nonNil(users)
	s.mu.Unlock()
	s.save(ctx, KeyUsers)
	return nil
}

// editUserLocked applies fn to the user in the users list and to the current
// user when it is the same account.
func (s *Store) editUserLocked(userID string, fn func(domain.User) (domain.User, error)) error {
	users, _, err := mapWhere(s.users, func(u domain.User) bool { return u.ID == userID }, fn)
	if err != nil {
		return err
	}
	var current *domain.User
	if s.currentUser != nil && s.currentUser.ID == userID {
		u, err := fn(*s.currentUser)
		if err != nil {
			return err
		}
		current = &u
	}
	s.users = users
	if current != nil {
		s.currentUser = current
	}
	return nil
}

func (s *Store) editUser(ctx context.Context, userID string, fn func(domain.User) (domain.User, error)) error {
	s.mu.Lock()
	err := s.editUserLocked(userID, fn)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.save(ctx, KeyUsers, KeyCurrentUser)
	return nil
}

// UpdateUserProfile merges updates into the user's record.
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, updates map[string]any) error {
	return s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		return merge(u, updates)
	})
}

func (s *Store) AddAddress(ctx context.Context, userID string, addr domain.Address) (domain.Address, error) {
	addr.ID = ids.Plain(s.now())
	err := s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		u.Addresses = appended(u.Addresses, addr)
		return u, nil
	})
	return addr, err
}

func (s *Store) UpdateAddress(ctx context.Context, userID, addressID string, updates map[string]any) error {
	return s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		addrs, _, err := mapWhere(u.Addresses,
			func(a domain.Address) bool { return a.ID == addressID },
			func(a domain.Address) (domain.Address, error) { return merge(a, updates) })
		if err != nil {
			return u, err
		}
		u.Addresses = addrs
		return u, nil
	})
}

func (s *Store) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		u.Addresses = without(u.Addresses, func(a domain.Address) bool { return a.ID == addressID })
		return u, nil
	})
}

func (s *Store) AddPaymentMethod(ctx context.Context, userID string, pm domain.PaymentMethod) (domain.PaymentMethod, error) {
	pm.ID = ids.Plain(s.now())
	err := s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		u.PaymentMethods = appended(u.PaymentMethods, pm)
		return u, nil
	})
	return pm, err
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, userID, methodID string, updates map[string]any) error {
	return s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		methods, _, err := mapWhere(u.PaymentMethods,
			func(m domain.PaymentMethod) bool { return m.ID == methodID },
			func(m domain.PaymentMethod) (domain.PaymentMethod, error) { return merge(m, updates) })
		if err != nil {
			return u, err
		}
		u.PaymentMethods = methods
		return u, nil
	})
}

func (s *Store) DeletePaymentMethod(ctx context.Context, userID, methodID string) error {
	return s.editUser(ctx, userID, func(u domain.User) (domain.User, error) {
		u.PaymentMethods = without(u.PaymentMethods, func(m domain.PaymentMethod) bool { return m.ID == methodID })
		return u, nil
	})
}

// ApproveUser marks the account approved on the backend and refreshes users.
func (s *Store) ApproveUser(ctx context.Context, userID string) error {
	return s.setUserStatus(ctx, userID, domain.UserApproved)
}

func (s *Store) RejectUser(ctx context.Context, userID string) error {
	return s.setUserStatus(ctx, userID, domain.UserRejected)
}

func (s *Store) setUserStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	if err := s.remote.UpdateUser(ctx, userID, map[string]any{"status": status}); err != nil {
		return fmt.Errorf("set user %s status: %w", userID, err)
	}
	return s.refreshUsers(ctx)
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := s.remote.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return s.refreshUsers(ctx)
}
