package db

import (
	"math"
	"time"
)

const (
	defaultSearchPage  = 1
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

type SearchUserOption func(*searchUserOption)

type searchUserPagination struct {
	page  int64
	limit int64
}

type searchUserOption struct {
	phone        string
	registerFrom *time.Time
	registerTo   *time.Time
	pagination   searchUserPagination
}

func newSearchUserOption(opts ...SearchUserOption) *searchUserOption {
	option := &searchUserOption{
		pagination: searchUserPagination{
			page:  defaultSearchPage,
			limit: defaultSearchLimit,
		},
	}
	for _, opt := range opts {
		opt(option)
	}
	return option
}

// skip returns the number of matching users before the requested page.
// ok is false when that number does not fit in an int64, the page is empty then.
func (o *searchUserOption) skip() (n int64, ok bool) {
	if o.pagination.page-1 > math.MaxInt64/o.pagination.limit {
		return 0, false
	}
	return o.pagination.limit * (o.pagination.page - 1), true
}

// match reports whether a user passes the phone and registration filters.
func (o *searchUserOption) match(phone string, registeredAt time.Time) bool {
	if len(o.phone) > 0 && phone != o.phone {
		return false
	}
	if o.registerFrom != nil && registeredAt.Before(*o.registerFrom) {
		return false
	}
	if o.registerTo != nil && registeredAt.After(*o.registerTo) {
		return false
	}
	return true
}

func SearchUserByPhone(phone string) SearchUserOption {
	return func(o *searchUserOption) {
		o.phone = phone
	}
}

// SearchUserByRegisterTime limits the result to users registered within [from, to].
// A nil bound is open.
func SearchUserByRegisterTime(from, to *time.Time) SearchUserOption {
	return func(o *searchUserOption) {
		o.registerFrom = from
		o.registerTo = to
	}
}

// SearchUserByPagination selects a page. Negative numbers and zero are treated as 1,
// limit is capped at 100.
func SearchUserByPagination(page, limit int64) SearchUserOption {
	return func(o *searchUserOption) {
		o.pagination.page = max(page, 1)
		o.pagination.limit = min(max(limit, 1), maxSearchLimit)
	}
}
