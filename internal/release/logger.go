package release

import "github.com/ZebulonRouseFrantzich/getbrowser/internal/config"

// Logger provides structured logging for release resolution.
type Logger = config.Logger
