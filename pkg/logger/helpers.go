package logger

// LogFileProcessed records the outcome of reading one timeline file on log
func LogFileProcessed(log Logger, path string, entries, mutuals int, err error) {
	l := log.WithFields(map[string]interface{}{
		"file":    path,
		"entries": entries,
		"mutuals": mutuals,
	})

	if err != nil {
		l.WithError(err).Warn("Timeline file skipped")
		return
	}
	l.Info("Timeline file processed")
}

// LogDownload records a single avatar download attempt on log
func LogDownload(log Logger, username, url string, size int, err error) {
	l := log.WithFields(map[string]interface{}{
		"username": username,
		"url":      url,
	})

	if err != nil {
		l.WithError(err).Warn("Avatar download failed")
		return
	}
	l.WithField("size", size).Info("Avatar downloaded")
}

// LogComponentStart logs when a component starts
func LogComponentStart(log Logger, component string, settings map[string]interface{}) {
	l := log.WithField("component", component)
	if len(settings) > 0 {
		l = l.WithFields(settings)
	}
	l.Debug("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(log Logger, component string, reason string) {
	log.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Debug("Component stopped")
}

// NewNopLogger creates a logger that drops everything
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) Debug(msg string)                                          {}
func (n nopLogger) Info(msg string)                                           {}
func (n nopLogger) Warn(msg string)                                           {}
func (n nopLogger) Error(msg string)                                          {}
func (n nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n nopLogger) WithError(err error) Logger                                { return n }
func (n nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
