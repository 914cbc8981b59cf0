package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Subjects the authorizer resolves a request to.
const (
	SubjectAnonymous = "anonymous"
	SubjectAdmin     = "admin"
)

// Model is the RBAC model: a subject may act on paths matched with keyMatch2,
// and methods matched as a regular expression.
const Model = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// NewEnforcer creates a Casbin enforcer over the built-in model. With opts set,
// policies are persisted through the sqlx adapter; with nil opts they live in memory.
func NewEnforcer(opts *sqlxadapter.AdapterOptions) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(Model)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if opts != nil {
		if opts.TableName == "" {
			opts.TableName = "casbin_rule"
		}
		enforcer, err = casbin.NewEnforcer(m, sqlxadapter.NewAdapterFromOptions(opts))
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.AddFunction("regexMatch", util.RegexMatchFunc)

	if opts != nil {
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policies: %w", err)
		}
	}
	return enforcer, nil
}
