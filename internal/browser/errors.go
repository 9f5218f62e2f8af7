package browser

import (
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

// ErrUnsupportedPlatform matches every *UnsupportedPlatformError via errors.Is.
var ErrUnsupportedPlatform = errors.New("platform not supported")

// UnsupportedPlatformError reports a (vendor, platform) pair with no entry in
// one of the schema tables. It is a user-facing "not available" condition.
type UnsupportedPlatformError struct {
	Vendor   Vendor
	Platform platform.ID
	Table    string // which lookup missed, e.g. "artifact directory"
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s has no %s for platform %q", e.Vendor.Label(), e.Table, e.Platform)
}

// Is makes errors.Is(err, ErrUnsupportedPlatform) succeed.
func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// UnknownChannelError reports a channel outside the vendor's channel set.
type UnknownChannelError struct {
	Vendor  Vendor
	Channel Channel
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("%s has no %q channel", e.Vendor.Label(), e.Channel)
}
