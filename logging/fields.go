package logging

import (
	"code.pegsim.io/pegsim/libs/num"

	"go.uber.org/zap"
)

// Field aliases the zap field type so callers never import zap directly.
type Field = zap.Field

func String(name, val string) Field {
	return zap.String(name, val)
}

func Bool(name string, val bool) Field {
	return zap.Bool(name, val)
}

func Int(name string, val int) Field {
	return zap.Int(name, val)
}

func Int64(name string, val int64) Field {
	return zap.Int64(name, val)
}

func Uint64(name string, val uint64) Field {
	return zap.Uint64(name, val)
}

func Decimal(name string, val num.Decimal) Field {
	return zap.String(name, val.String())
}

func Error(err error) Field {
	return zap.Error(err)
}
