package station

// Build-time variables set via -ldflags. For example:
//
//	go build -ldflags "-X github.com/andriux26/groundstationd/internal/station.Version=v1.0.0"
var (
	Version   = "dev"
	GoVersion = "unknown"
	BuiltAt   = "unknown"
)
