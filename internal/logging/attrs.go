package logging

import "log/slog"

func Page(file string) slog.Attr {
	return slog.String("page", file)
}

func Trigger[T ~string](trigger T) slog.Attr {
	return slog.String("trigger", string(trigger))
}

func Destination(dest string) slog.Attr {
	return slog.String("destination", dest)
}

func Key(key string) slog.Attr {
	return slog.String("key", key)
}

func Err(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
