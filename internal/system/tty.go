package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EnterGraphicsConsole switches the console to graphics mode and hides the
// cursor, logging each step. The returned function undoes both. Failures
// are logged only: the overlay still draws on a text console.
func EnterGraphicsConsole(l logger) (restore func()) {
	graphics := logStep(l, "KD_GRAPHICS set", SetGraphicsMode)
	hidden := logStep(l, "cursor hidden", HideCursor)
	return func() {
		if hidden {
			logStep(l, "cursor shown", ShowCursor)
		}
		if graphics {
			logStep(l, "KD_TEXT set", RestoreTextMode)
		}
	}
}

func logStep(l logger, done string, step func() error) bool {
	err := step()
	if l == nil {
		return err == nil
	}
	if err != nil {
		l.Errorf("tty", "%v", err)
		return false
	}
	l.Infof("tty", "%s", done)
	return true
}
