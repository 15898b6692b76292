package rest

import (
	"regexp"

	"github.com/quillhub/quillhub-backend/internal/validate"
)

// Request schemas. Each canonical declaration is written once; update
// variants are derived with Partial/Pick/Omit so constraints never diverge.
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	registerSchema = validate.New(
		validate.Field{Name: "username", Kind: validate.KindString, Required: true, MinLen: 3, MaxLen: 32, Pattern: usernamePattern},
		validate.Field{Name: "email", Kind: validate.KindString, Required: true, MaxLen: 254, Pattern: emailPattern},
		validate.Field{Name: "password", Kind: validate.KindString, Required: true, MinLen: 8, MaxLen: 72},
		validate.Field{Name: "bio", Kind: validate.KindString, MaxLen: 500},
	)

	// Login only checks presence: constraint details on credentials would
	// leak information the fixed failure reason exists to hide.
	loginSchema = validate.New(
		validate.Field{Name: "username", Kind: validate.KindString, Required: true},
		validate.Field{Name: "password", Kind: validate.KindString, Required: true},
	)

	userUpdateSchema = registerSchema.Omit("username", "password").Partial()

	postSchema = validate.New(
		validate.Field{Name: "title", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 200},
		validate.Field{Name: "content", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 50000},
		validate.Field{Name: "categoryId", Kind: validate.KindInt, Positive: true},
		validate.Field{Name: "published", Kind: validate.KindBool},
	)

	postUpdateSchema = postSchema.Partial()

	commentSchema = validate.New(
		validate.Field{Name: "content", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 5000},
	)

	categorySchema = validate.New(
		validate.Field{Name: "name", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 100},
		validate.Field{Name: "description", Kind: validate.KindString, MaxLen: 500},
	)

	categoryUpdateSchema = categorySchema.Partial()

	tagSchema = validate.New(
		validate.Field{Name: "name", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 50},
	)

	voteSchema = validate.New(
		validate.Field{Name: "value", Kind: validate.KindInt, Required: true},
	)

	generateSchema = validate.New(
		validate.Field{Name: "prompt", Kind: validate.KindString, Required: true, MinLen: 1, MaxLen: 4000},
	)
)
