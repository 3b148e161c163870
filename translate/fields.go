package translate

import (
	"context"

	"github.com/minios-linux/jsonlate/jsondoc"
)

// TranslateFields translates fields one after another, in order, and
// returns the translations keyed by path. onProgress, if set, is called
// after each field with the number completed so far.
func TranslateFields(ctx context.Context, t Translator, fields []jsondoc.Field, target string, onProgress func(done, total int)) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for i, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[f.Path] = t.Translate(ctx, f.Value, target)
		if onProgress != nil {
			onProgress(i+1, len(fields))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
