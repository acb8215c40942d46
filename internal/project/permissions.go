package project

import "sort"

// Cross-platform permission keys understood by the permission mapping.
var crossPlatformKeys = []string{
	"camera",
	"microphone",
	"coarse_location",
	"fine_location",
	"background_location",
	"photo_library",
}

// PermissionsContext is the permission/feature set rendered into the
// generated Android manifest.
type PermissionsContext struct {
	// Permissions maps android.permission.* names to whether they are granted.
	Permissions map[string]bool
	// Features maps android.hardware.* names to whether they are required.
	Features map[string]bool
}

// BuildPermissionsContext translates the app's cross-platform permission keys
// into concrete Android permissions and hardware features. Keys that are not
// cross-platform are passed through as raw Android permission names. INTERNET
// and ACCESS_NETWORK_STATE are always granted.
func BuildPermissionsContext(app *App) PermissionsContext {
	permissions := map[string]bool{
		"android.permission.INTERNET":             true,
		"android.permission.ACCESS_NETWORK_STATE": true,
	}
	features := map[string]bool{}

	cross := map[string]bool{}
	for _, key := range crossPlatformKeys {
		if _, ok := app.Permissions[key]; ok {
			cross[key] = true
		}
	}

	if cross["camera"] {
		permissions["android.permission.CAMERA"] = true
		features["android.hardware.camera"] = false
	}
	if cross["microphone"] {
		permissions["android.permission.RECORD_AUDIO"] = true
	}
	if cross["fine_location"] {
		permissions["android.permission.ACCESS_FINE_LOCATION"] = true
		features["android.hardware.location.gps"] = false
	}
	if cross["coarse_location"] {
		permissions["android.permission.ACCESS_COARSE_LOCATION"] = true
		features["android.hardware.location.network"] = false
	}
	if cross["background_location"] {
		permissions["android.permission.ACCESS_BACKGROUND_LOCATION"] = true
	}
	if cross["photo_library"] {
		permissions["android.permission.READ_MEDIA_VISUAL_USER_SELECTED"] = true
	}

	// Raw android permission names pass straight through.
	for key := range app.Permissions {
		if !cross[key] {
			permissions[key] = true
		}
	}
	for key, required := range app.Features {
		features[key] = required
	}

	return PermissionsContext{Permissions: permissions, Features: features}
}

// GrantedPermissions returns the granted permission names in sorted order,
// ready for --permission build arguments.
func (c PermissionsContext) GrantedPermissions() []string {
	var granted []string
	for name, enabled := range c.Permissions {
		if enabled {
			granted = append(granted, name)
		}
	}
	sort.Strings(granted)
	return granted
}
