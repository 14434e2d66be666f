package app

import (
	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/modules/heartbeat"
	"github.com/vk/runloop/modules/physlog"
	"github.com/vk/runloop/modules/statusline"
	"github.com/vk/runloop/modules/sysmon"
)

// coreModules is the built-in module set registered when the caller does not
// supply their own.
var coreModules = []catalog.Module{
	heartbeat.Module{},
	sysmon.Module{},
	physlog.Module{},
	statusline.Module{},
}
