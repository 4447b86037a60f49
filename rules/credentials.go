package rules

import (
	"regexp"
	"strconv"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/issue"
)

type credentials struct {
	issue.MetaData
	pattern          *regexp.Regexp
	entropyThreshold float64
	perCharThreshold float64
	truncate         int
	ignoreEntropy    bool
}

func (r *credentials) ID() string {
	return r.MetaData.ID
}

func truncate(s string, n int) string {
	if n > len(s) {
		return s
	}
	return s[:n]
}

// isHighEntropyString gates literal matches on password strength, so a
// placeholder like "changeme" in a sample config is not reported with
// the same confidence as a live token.
func (r *credentials) isHighEntropyString(str string) bool {
	s := truncate(str, r.truncate)
	if len(s) == 0 {
		return false
	}
	entropy := jssec.CachedEntropy(s, func(s string) float64 {
		return zxcvbn.PasswordStrength(s, []string{}).Entropy
	})
	entropyPerChar := entropy / float64(len(s))
	return entropy >= r.entropyThreshold ||
		(entropy >= (r.entropyThreshold/2) && entropyPerChar >= r.perCharThreshold)
}

func (r *credentials) isSecret(name, value string) bool {
	if !jssec.RegexMatch(r.pattern, name) || value == "" {
		return false
	}
	return r.ignoreEntropy || r.isHighEntropyString(value)
}

func (r *credentials) Match(n ast.Node, ctx *jssec.Context) (*issue.Issue, error) {
	switch t := n.(type) {
	case *ast.Binding:
		return r.matchBinding(t, ctx)
	case *ast.AssignExpression:
		return r.matchAssign(t, ctx)
	case *ast.BinaryExpression:
		return r.matchComparison(t, ctx)
	case *ast.ObjectLiteral:
		return r.matchObject(t, ctx)
	}
	return nil, nil
}

func (r *credentials) matchBinding(bind *ast.Binding, ctx *jssec.Context) (*issue.Issue, error) {
	id, ok := bind.Target.(*ast.Identifier)
	if !ok || bind.Initializer == nil {
		return nil, nil
	}
	value, constant := ctx.Root.ConstantString(bind.Initializer)
	if constant && r.isSecret(string(id.Name), value) {
		return ctx.NewIssue(bind, r.ID(), r.What, r.Severity, r.Confidence), nil
	}
	return nil, nil
}

func (r *credentials) matchAssign(assign *ast.AssignExpression, ctx *jssec.Context) (*issue.Issue, error) {
	name, ok := assignedName(ctx, assign.Left)
	if !ok {
		return nil, nil
	}
	value, constant := ctx.Root.ConstantString(assign.Right)
	if constant && r.isSecret(name, value) {
		return ctx.NewIssue(assign, r.ID(), r.What, r.Severity, r.Confidence), nil
	}
	return nil, nil
}

func (r *credentials) matchComparison(bin *ast.BinaryExpression, ctx *jssec.Context) (*issue.Issue, error) {
	switch bin.Operator {
	case token.EQUAL, token.STRICT_EQUAL, token.NOT_EQUAL, token.STRICT_NOT_EQUAL:
	default:
		return nil, nil
	}
	candidates := [][2]ast.Node{{bin.Left, bin.Right}, {bin.Right, bin.Left}}
	for _, c := range candidates {
		name, ok := assignedName(ctx, c[0])
		if !ok {
			continue
		}
		if lit, isString := c[1].(*ast.StringLiteral); isString && r.isSecret(name, string(lit.Value)) {
			return ctx.NewIssue(bin, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	}
	return nil, nil
}

func (r *credentials) matchObject(obj *ast.ObjectLiteral, ctx *jssec.Context) (*issue.Issue, error) {
	for _, p := range obj.Value {
		keyed, ok := p.(*ast.PropertyKeyed)
		if ok && !keyed.Computed {
			key, keyOK := propertyKeyName(ctx, keyed.Key)
			if !keyOK {
				continue
			}
			value, constant := ctx.Root.ConstantString(keyed.Value)
			if constant && r.isSecret(key, value) {
				return ctx.NewIssue(obj, r.ID(), r.What, r.Severity, r.Confidence), nil
			}
		}
	}
	return nil, nil
}

// assignedName names the storage location an expression writes to or
// compares: a plain variable, a property selected with a dot, or a
// property selected with a constant string key.
func assignedName(ctx *jssec.Context, n ast.Node) (string, bool) {
	switch t := n.(type) {
	case *ast.Identifier:
		return string(t.Name), true
	case *ast.DotExpression:
		return string(t.Identifier.Name), true
	case *ast.BracketExpression:
		return ctx.Root.ConstantString(t.Member)
	}
	return "", false
}

func propertyKeyName(ctx *jssec.Context, key ast.Expression) (string, bool) {
	switch t := key.(type) {
	case *ast.StringLiteral:
		return string(t.Value), true
	case *ast.Identifier:
		return string(t.Name), true
	}
	return ctx.Root.ConstantString(key)
}

// NewHardcodedCredentials creates a rule that flags string literals
// bound to credential-looking names. The name pattern, entropy gate
// and truncation are configurable per rule.
func NewHardcodedCredentials(id string, conf jssec.Config) (jssec.Rule, []ast.Node) {
	pattern := `(?i)passwd|pass|password|pwd|secret|token|pw|apiKey|bearer|cred`
	entropyThreshold := 80.0
	perCharThreshold := 3.0
	ignoreEntropy := false
	truncateString := 16

	if val, err := conf.Get(id); err == nil {
		if conf, ok := val.(map[string]interface{}); ok {
			if configPattern, ok := conf["pattern"]; ok {
				if cfgPattern, ok := configPattern.(string); ok {
					pattern = cfgPattern
				}
			}
			if configIgnoreEntropy, ok := conf["ignore_entropy"]; ok {
				if cfgIgnoreEntropy, ok := configIgnoreEntropy.(bool); ok {
					ignoreEntropy = cfgIgnoreEntropy
				}
			}
			if configEntropyThreshold, ok := conf["entropy_threshold"]; ok {
				if cfgEntropyThreshold, ok := configEntropyThreshold.(string); ok {
					if parsedNum, err := strconv.ParseFloat(cfgEntropyThreshold, 64); err == nil {
						entropyThreshold = parsedNum
					}
				}
			}
			if configCharThreshold, ok := conf["per_char_threshold"]; ok {
				if cfgCharThreshold, ok := configCharThreshold.(string); ok {
					if parsedNum, err := strconv.ParseFloat(cfgCharThreshold, 64); err == nil {
						perCharThreshold = parsedNum
					}
				}
			}
			if configTruncate, ok := conf["truncate"]; ok {
				if cfgTruncate, ok := configTruncate.(string); ok {
					if parsedInt, err := strconv.Atoi(cfgTruncate); err == nil {
						truncateString = parsedInt
					}
				}
			}
		}
	}

	return &credentials{
		pattern:          regexp.MustCompile(pattern),
		entropyThreshold: entropyThreshold,
		perCharThreshold: perCharThreshold,
		ignoreEntropy:    ignoreEntropy,
		truncate:         truncateString,
		MetaData: issue.MetaData{
			ID:         id,
			What:       "Potential hardcoded credentials",
			Severity:   issue.High,
			Confidence: issue.Low,
		},
	}, []ast.Node{
		(*ast.Binding)(nil),
		(*ast.AssignExpression)(nil),
		(*ast.BinaryExpression)(nil),
		(*ast.ObjectLiteral)(nil),
	}
}
