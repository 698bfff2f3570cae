package logging

import "context"

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying the key-value pairs args. Both
// backends append them to every entry logged with that context, after the
// call-site pairs.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev := fieldsFrom(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func fieldsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}

// withContext appends the pairs carried by ctx to args.
func withContext(ctx context.Context, args []any) []any {
	f := fieldsFrom(ctx)
	if len(f) == 0 {
		return args
	}
	out := make([]any, 0, len(args)+len(f))
	out = append(out, args...)
	return append(out, f...)
}
