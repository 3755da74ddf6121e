package cmd

import (
	"time"

	"github.com/isometry/messenger-echo-bot/internal/config"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
		Env:         helpers.Ptr("PORT"),
	},
	&config.Service.Path: {
		Name:        "service-host-path",
		Description: "The path prefix to serve the service on",
		Short:       helpers.Ptr("P"),
	},
	&config.Service.AssetsDir: {
		Name:        "service-assets-dir",
		Description: "The directory served under /assets/. If not specified, no assets are served",
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}
