// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/samber/oops"

	"github.com/threadline/threadline/internal/account"
	"github.com/threadline/threadline/internal/forum"
	"github.com/threadline/threadline/internal/observability"
	"github.com/threadline/threadline/internal/web"
)

// Dependencies are the collaborators the resolvers call into. Metrics is
// optional; the rest are required.
type Dependencies struct {
	Accounts *account.Service
	Resets   *account.ResetService
	Posts    *forum.Service
	Metrics  *observability.Metrics
}

// userView is the wire shape of a user. The password hash never crosses
// this boundary.
type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func newUserView(u *account.User) *userView {
	return &userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// postView is the wire shape of a post.
type postView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func newPostView(p *forum.Post) *postView {
	return &postView{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// userResponse carries either a user or a list of field errors, never
// meaningfully both.
type userResponse struct {
	Errors []account.FieldError `json:"errors"`
	User   *userView            `json:"user"`
}

func fieldErrors(ferr *account.FieldError) []account.FieldError {
	return []account.FieldError{*ferr}
}

// session returns the request's session handle from the resolver context.
func session(ctx context.Context) (*web.Session, error) {
	sess := web.SessionFromContext(ctx)
	if sess == nil {
		return nil, oops.Code("GRAPHQL_NO_SESSION").Errorf("no session on request context")
	}
	return sess, nil
}

// NewSchema builds the API schema. The schema is validated on
// construction; an invalid field or type wiring fails here rather than at
// first query.
func NewSchema(deps Dependencies) (graphql.Schema, error) {
	if deps.Accounts == nil {
		return graphql.Schema{}, oops.Code("GRAPHQL_INVALID_DEPS").Errorf("account service is required")
	}
	if deps.Resets == nil {
		return graphql.Schema{}, oops.Code("GRAPHQL_INVALID_DEPS").Errorf("reset service is required")
	}
	if deps.Posts == nil {
		return graphql.Schema{}, oops.Code("GRAPHQL_INVALID_DEPS").Errorf("forum service is required")
	}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	fieldErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FieldError",
		Fields: graphql.Fields{
			"field":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserResponse",
		Fields: graphql.Fields{
			"errors": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(fieldErrorType))},
			"user":   &graphql.Field{Type: userType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sess, err := session(p.Context)
					if err != nil {
						return nil, err
					}
					user, err := deps.Accounts.CurrentUser(p.Context, sess.ID())
					if err != nil {
						return nil, err
					}
					if user == nil {
						return nil, nil
					}
					return newUserView(user), nil
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					users, err := deps.Accounts.ListUsers(p.Context)
					if err != nil {
						return nil, err
					}
					views := make([]*userView, 0, len(users))
					for _, u := range users {
						views = append(views, newUserView(u))
					}
					return views, nil
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					posts, err := deps.Posts.List(p.Context)
					if err != nil {
						return nil, err
					}
					views := make([]*postView, 0, len(posts))
					for _, post := range posts {
						views = append(views, newPostView(post))
					}
					return views, nil
				},
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := int64(p.Args["id"].(int))
					post, err := deps.Posts.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					if post == nil {
						return nil, nil
					}
					return newPostView(post), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sess, err := session(p.Context)
					if err != nil {
						return nil, err
					}
					user, ferr, err := deps.Accounts.Register(p.Context, sess.EnsureID,
						p.Args["username"].(string),
						p.Args["email"].(string),
						p.Args["password"].(string),
					)
					if err != nil {
						return nil, err
					}
					if ferr != nil {
						deps.Metrics.RecordRegistration("rejected")
						return &userResponse{Errors: fieldErrors(ferr)}, nil
					}
					deps.Metrics.RecordRegistration("success")
					return &userResponse{User: newUserView(user)}, nil
				},
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"usernameOrEmail": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sess, err := session(p.Context)
					if err != nil {
						return nil, err
					}
					user, ferr, err := deps.Accounts.Login(p.Context, sess.EnsureID,
						p.Args["usernameOrEmail"].(string),
						p.Args["password"].(string),
					)
					if err != nil {
						return nil, err
					}
					if ferr != nil {
						deps.Metrics.RecordLogin("failure")
						return &userResponse{Errors: fieldErrors(ferr)}, nil
					}
					deps.Metrics.RecordLogin("success")
					return &userResponse{User: newUserView(user)}, nil
				},
			},
			"logout": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sess, err := session(p.Context)
					if err != nil {
						return nil, err
					}
					ok := deps.Accounts.Logout(p.Context, sess.ID())
					// The cookie is cleared even when the store destroy fails:
					// the client drops its session either way.
					sess.Clear()
					return ok, nil
				},
			},
			"forgotPassword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if err := deps.Resets.RequestReset(p.Context, p.Args["email"].(string)); err != nil {
						return nil, err
					}
					deps.Metrics.RecordPasswordReset("requested")
					return true, nil
				},
			},
			"changePassword": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"token":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					sess, err := session(p.Context)
					if err != nil {
						return nil, err
					}
					user, ferr, err := deps.Resets.CompleteReset(p.Context, sess.EnsureID,
						p.Args["token"].(string),
						p.Args["newPassword"].(string),
					)
					if err != nil {
						return nil, err
					}
					if ferr != nil {
						deps.Metrics.RecordPasswordReset("rejected")
						return &userResponse{Errors: fieldErrors(ferr)}, nil
					}
					deps.Metrics.RecordPasswordReset("completed")
					return &userResponse{User: newUserView(user)}, nil
				},
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"title": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					post, err := deps.Posts.Create(p.Context, p.Args["title"].(string))
					if err != nil {
						return nil, err
					}
					return newPostView(post), nil
				},
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := int64(p.Args["id"].(int))
					var title *string
					if raw, ok := p.Args["title"]; ok && raw != nil {
						t := raw.(string)
						title = &t
					}
					post, err := deps.Posts.Update(p.Context, id, title)
					if err != nil {
						return nil, err
					}
					if post == nil {
						return nil, nil
					}
					return newPostView(post), nil
				},
			},
			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := int64(p.Args["id"].(int))
					return deps.Posts.Delete(p.Context, id)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, oops.Code("GRAPHQL_SCHEMA_INVALID").Wrap(err)
	}
	return schema, nil
}
