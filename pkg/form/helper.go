package form

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/mo"

	"github.com/goliatone/go-viewkit/pkg/formcontext"
	"github.com/goliatone/go-viewkit/pkg/i18n"
)

// Option customises a Helper.
type Option func(*Helper)

// WithContexts sets the registry used to build contexts for opened items.
func WithContexts(registry *formcontext.Registry) Option {
	return func(h *Helper) {
		h.contexts = registry
	}
}

// WithPostedData sets the submitted values that take precedence over record
// values.
func WithPostedData(posted PostedData) Option {
	return func(h *Helper) {
		if posted != nil {
			h.posted = posted
		}
	}
}

// WithTranslator sets the translator and locale used for labels and
// placeholders.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(h *Helper) {
		h.translator = t
		h.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslation overrides the missing translation handler.
func WithMissingTranslation(handler i18n.MissingHandler) Option {
	return func(h *Helper) {
		h.onMissing = handler
	}
}

// WithAction sets the action used by Open when none is given, typically the
// current request URL.
func WithAction(action string) Option {
	return func(h *Helper) {
		h.action = strings.TrimSpace(action)
	}
}

// WithLogger sets the helper logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Helper) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Helper renders form markup using the constraints of the active form
// context. A Helper serves one render and is not safe for concurrent use.
type Helper struct {
	contexts   *formcontext.Registry
	posted     PostedData
	translator i18n.Translator
	locale     string
	onMissing  i18n.MissingHandler
	action     string
	logger     *slog.Logger

	context formcontext.Context
	open    bool
}

// New creates a closed helper backed by the null context.
func New(opts ...Option) *Helper {
	h := &Helper{
		posted:  noPostedData{},
		logger:  slog.Default(),
		context: formcontext.NullContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Context returns the active form context.
func (h *Helper) Context() formcontext.Context { return h.context }

// IsOpen reports whether a form is open.
func (h *Helper) IsOpen() bool { return h.open }

// Open starts a form for item. A nil item uses the null context; other items
// are mapped to a context by their exact type.
func (h *Helper) Open(item any, opts ...FormOptions) (string, error) {
	if h.open {
		return "", ErrUnclosedForm
	}

	ctx := formcontext.NullContext
	if item != nil {
		if h.contexts == nil {
			return "", fmt.Errorf("%w: %T", formcontext.ErrInvalidContext, item)
		}
		resolved, err := h.contexts.For(item)
		if err != nil {
			return "", err
		}
		ctx = resolved
	}

	var options FormOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	override := ""
	if method != "get" && method != "post" {
		override = strings.ToUpper(method)
		method = "post"
	}

	attrs := newAttrs().set("method", method).set("accept-charset", "utf-8")
	if options.ID != "" {
		attrs.set("id", options.ID)
	}
	action := strings.TrimSpace(options.Action)
	if action == "" {
		action = h.action
	}
	if action != "" {
		attrs.set("action", action)
	}
	if options.Multipart {
		attrs.set("enctype", "multipart/form-data")
	}
	attrs.extra(options.Attrs)

	var b strings.Builder
	b.WriteString("<form")
	b.WriteString(attrs.String())
	b.WriteString(">")
	if override != "" {
		b.WriteString(`<input type="hidden" name="_method" value="`)
		b.WriteString(override)
		b.WriteString(`">`)
	}

	h.context = ctx
	h.open = true
	h.logger.Debug("form: opened", "context", fmt.Sprintf("%T", ctx), "method", method, "action", action)
	return b.String(), nil
}

// Close ends the form and restores the null context.
func (h *Helper) Close() string {
	h.context = formcontext.NullContext
	h.open = false
	return "</form>"
}

// Input renders key with the type given in the options, or the type inferred
// from the active context.
func (h *Helper) Input(key string, opts ...FieldOptions) (string, error) {
	o := mergeOptions(opts)
	kind, ok := o.Type.Get()
	if !ok {
		kind = h.inferType(key)
	}
	render, ok := inputMethods[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidInputType, kind)
	}
	o.Type = mo.Some(kind)
	return render(h, key, o)
}

// As renders key with a type given by name, as templates do.
func (h *Helper) As(kind, key string, opts ...FieldOptions) (string, error) {
	parsed, ok := ParseInputType(kind)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidInputType, kind)
	}
	o := mergeOptions(opts)
	o.Type = mo.Some(parsed)
	return h.Input(key, o)
}

func (h *Helper) Text(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypeText, key, mergeOptions(opts))
}

func (h *Helper) Email(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypeEmail, key, mergeOptions(opts))
}

func (h *Helper) Password(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypePassword, key, mergeOptions(opts))
}

func (h *Helper) Tel(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypeTel, key, mergeOptions(opts))
}

func (h *Helper) URL(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypeURL, key, mergeOptions(opts))
}

func (h *Helper) Search(key string, opts ...FieldOptions) (string, error) {
	return h.input(TypeSearch, key, mergeOptions(opts))
}

func (h *Helper) Number(key string, opts ...FieldOptions) (string, error) {
	return h.number(key, mergeOptions(opts))
}

func (h *Helper) Textarea(key string, opts ...FieldOptions) (string, error) {
	return h.textarea(key, mergeOptions(opts))
}

func (h *Helper) Hidden(key string, opts ...FieldOptions) (string, error) {
	return h.hidden(key, mergeOptions(opts))
}

func (h *Helper) Checkbox(key string, opts ...FieldOptions) (string, error) {
	return h.checkbox(key, mergeOptions(opts))
}

func (h *Helper) Radio(key string, opts ...FieldOptions) (string, error) {
	return h.radio(key, mergeOptions(opts))
}

func (h *Helper) Select(key string, opts ...FieldOptions) (string, error) {
	return h.selectBox(key, mergeOptions(opts))
}

func (h *Helper) Date(key string, opts ...FieldOptions) (string, error) {
	return h.dateTime(TypeDate, key, mergeOptions(opts))
}

func (h *Helper) Time(key string, opts ...FieldOptions) (string, error) {
	return h.dateTime(TypeTime, key, mergeOptions(opts))
}

func (h *Helper) Datetime(key string, opts ...FieldOptions) (string, error) {
	return h.dateTime(TypeDatetime, key, mergeOptions(opts))
}

func (h *Helper) File(key string, opts ...FieldOptions) (string, error) {
	return h.file(key, mergeOptions(opts))
}

// inferType picks the input type for key: primary keys are hidden, text
// fields named like passwords or emails get those types, otherwise the
// context type is used.
func (h *Helper) inferType(key string) InputType {
	if h.context.IsPrimaryKey(key) {
		return TypeHidden
	}
	kind, ok := ParseInputType(h.context.Type(key))
	if !ok {
		kind = TypeText
	}
	if kind != TypeText {
		return kind
	}
	terminal := strings.ToLower(lastSegment(key))
	switch {
	case strings.Contains(terminal, "password"), strings.Contains(terminal, "passwd"):
		return TypePassword
	case strings.Contains(terminal, "email"):
		return TypeEmail
	}
	return TypeText
}

// computed builds the context-derived options for a field of kind.
func (h *Helper) computed(kind InputType, key string) FieldOptions {
	c := FieldOptions{
		ID:   mo.Some(FieldID(key)),
		Name: mo.Some(FieldName(key)),
	}
	if kind != TypeHidden {
		c.Required = mo.Some(h.context.IsRequired(key))
	}
	if kind.textLike() {
		c.Placeholder = mo.Some(h.label(key))
		c.MaxLength = h.context.MaxLength(key)
	}
	if kind == TypeNumber {
		c.Min = h.context.Min(key)
		c.Max = h.context.Max(key)
		c.Step = h.context.Step(key)
	}
	return c
}

// currentValue resolves the value of key: posted data, then the record, then
// the Default option, then the schema default.
func (h *Helper) currentValue(key string, o FieldOptions) (any, bool) {
	name := strings.TrimSuffix(o.Name.OrElse(FieldName(key)), "[]")
	if o.Multiple.OrEmpty() {
		name += "[]"
	}
	if value, ok := h.posted.Get(name); ok {
		return value, true
	}
	if value, ok := h.context.Value(key); ok && value != nil {
		return value, true
	}
	if value, ok := o.Default.Get(); ok {
		return value, true
	}
	if value, ok := h.context.DefaultValue(key).Get(); ok {
		return value, true
	}
	return nil, false
}

// valueOf prefers an explicit Value option over currentValue.
func (h *Helper) valueOf(key string, o FieldOptions) (any, bool) {
	if value, ok := o.Value.Get(); ok {
		return value, true
	}
	return h.currentValue(key, o)
}

func (h *Helper) label(key string) string {
	return i18n.FieldLabel(h.translator, h.locale, key, h.onMissing)
}

func lastSegment(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
