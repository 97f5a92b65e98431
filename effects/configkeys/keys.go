package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectCursorPrefix = ConfigEffectPrefix + delimiter + "cursor"

	ConfigEffectCursorHandlerPrefix     = ConfigEffectCursorPrefix + delimiter + "handler"
	ConfigEffectCursorHandlerBufferSize = ConfigEffectCursorHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectCursorHandlerNumWorkers = ConfigEffectCursorHandlerPrefix + delimiter + "num_workers"
	ConfigEffectCursorHistorySize       = ConfigEffectCursorPrefix + delimiter + "history_size"

	ConfigEffectLogPrefix = ConfigEffectPrefix + delimiter + "log"

	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"

	ConfigIteratorPrefix = ConfigPrefix + delimiter + "iterator"

	// ConfigIteratorDelayMs holds the default debounce delay in milliseconds (int).
	ConfigIteratorDelayMs = ConfigIteratorPrefix + delimiter + "delay_ms"
	// ConfigIteratorLoop holds the default wrap-around flag (bool).
	ConfigIteratorLoop = ConfigIteratorPrefix + delimiter + "loop"
)
