// Package autoload initializes the global logger on import:
//
//	import _ "github.com/voxagenda/voxagenda/pkg/logger/autoload"
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/voxagenda/voxagenda/pkg/logger"
)

func init() {
	var conf logx.Config
	// a broken LOG_* variable falls back to defaults; logging must not
	// stop the process
	_ = envconfig.Process("LOG", &conf)
	logx.Init(conf)
}
