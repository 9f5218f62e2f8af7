package fetchcache

import "github.com/ZebulonRouseFrantzich/getbrowser/internal/config"

// Logger provides structured logging for cache operations.
type Logger = config.Logger
