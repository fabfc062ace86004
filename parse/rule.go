package parse

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"

	"github.com/iancoleman/strcase"
)

// Rule is a named parser that can be referenced before it is defined,
// which is how recursive and mutually recursive grammars are written:
// declare every rule, then define each body in terms of the others.
type Rule[T any] struct {
	name     string
	explicit bool
	body     Parser[T]
}

// NewRule declares a rule. Without a name the rule is called after the
// place it was declared, as in "grammar.go:42", until a name is inferred
// (see InferRuleNames).
func NewRule[T any](name string) *Rule[T] {
	r := &Rule[T]{name: name, explicit: name != ""}
	if name == "" {
		r.name = "rule"
		if _, file, line, ok := runtime.Caller(1); ok {
			r.name = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	return r
}

// Name is used in diagnostics only and never affects parsing.
func (r *Rule[T]) Name() string {
	return r.name
}

// Bound reports whether the rule has been defined.
func (r *Rule[T]) Bound() bool {
	return r.body != nil
}

// Define binds the rule's body. A rule is defined once; defining it again
// panics.
func (r *Rule[T]) Define(p Parser[T]) {
	if p == nil {
		panic(fmt.Sprintf("parse: rule %s defined with a nil parser", r.name))
	}
	if r.body != nil {
		panic(fmt.Sprintf("parse: rule %s is already defined", r.name))
	}
	r.body = p
}

// Parse delegates to the rule's body. Using a rule that was never defined
// raises an *UnboundRuleError fault.
func (r *Rule[T]) Parse(in TokenStream) Reply[T] {
	if r.body == nil {
		fault(&UnboundRuleError{Name: r.name})
	}
	return r.body(in)
}

// Parser returns the rule as a Parser.
func (r *Rule[T]) Parser() Parser[T] {
	return r.Parse
}

func (r *Rule[T]) inferName(name string) {
	if r.explicit {
		return
	}
	r.name = name
	r.explicit = true
}

// namedRule is implemented by every *Rule[T], whatever T.
type namedRule interface {
	Name() string
	Bound() bool
	inferName(name string)
}

// Registry keeps rules by name for grammars assembled at run time.
type Registry struct {
	rules map[string]namedRule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]namedRule)}
}

// Declare returns the rule registered under name, declaring it first if
// needed. Asking for an existing name with a different value type panics.
func Declare[T any](reg *Registry, name string) *Rule[T] {
	if existing, ok := reg.rules[name]; ok {
		r, ok := existing.(*Rule[T])
		if !ok {
			panic(fmt.Sprintf("parse: rule %s declared with type %T", name, existing))
		}
		return r
	}
	r := NewRule[T](name)
	reg.rules[name] = r
	return r
}

// Names returns the registered names in lexical order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.rules))
	for name := range reg.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unbound returns the names of the rules that have not been defined.
func (reg *Registry) Unbound() []string {
	var names []string
	for _, name := range reg.Names() {
		if !reg.rules[name].Bound() {
			names = append(names, name)
		}
	}
	return names
}

// Check reports every rule that is declared but not defined.
func (reg *Registry) Check() error {
	var errs []error
	for _, name := range reg.Unbound() {
		errs = append(errs, &UnboundRuleError{Name: name})
	}
	return errors.Join(errs...)
}

// InferRuleNames names the unnamed rules held in the exported fields of
// the struct grammar points to, using the field name passed through namer.
// A nil namer keeps field names as they are. Nil rules and rules declared
// with an explicit name are left alone.
func InferRuleNames(grammar any, namer func(string) string) {
	v := reflect.ValueOf(grammar)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("parse: InferRuleNames needs a pointer to a struct, got %T", grammar))
	}
	if namer == nil {
		namer = func(name string) string { return name }
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.Pointer {
			continue
		}
		fv := v.Field(i)
		if fv.IsNil() {
			continue
		}
		if r, ok := fv.Interface().(namedRule); ok {
			r.inferName(namer(field.Name))
		}
	}
}

// HumanizeName turns an identifier such as "ClassDeclaration" or
// "class_declaration" into "class declaration".
func HumanizeName(name string) string {
	return strcase.ToDelimited(name, ' ')
}
