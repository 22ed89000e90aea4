package entity

import "errors"

var (
	// ErrPostNotFound covers missing posts and ownership mismatches on
	// update/delete, which are deliberately indistinguishable.
	ErrPostNotFound = errors.New("post not found")

	// ErrPostExpired rejects any interaction with a post whose
	// expiration has passed, whether or not the status flip had been
	// persisted when the request arrived.
	ErrPostExpired = errors.New("cannot interact with an expired post")

	// ErrOwnPostReaction rejects owners reacting to their own posts.
	ErrOwnPostReaction = errors.New("users can not react to their own posts")

	// ErrInvalidDuration rejects a non-positive expirationDuration.
	ErrInvalidDuration = errors.New("invalid expiration duration")

	// ErrInvalidTopic rejects topics outside the fixed enumeration.
	ErrInvalidTopic = errors.New("invalid topic")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
