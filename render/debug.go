package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"
)

// AttachDebugLog forwards driver debug messages to log. It does nothing
// unless log is emitting at debug level, since enabling GL debug output
// costs real time in some drivers.
func AttachDebugLog(log *zap.Logger) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}

	gl.DebugMessageCallback(func(
		source,
		gltype,
		id,
		severity uint32,
		length int32,
		message string,
		user unsafe.Pointer,
	) {
		log.Debug("gl",
			zap.String("source", debugSource(source)),
			zap.String("type", debugType(gltype)),
			zap.String("severity", debugSeverity(severity)),
			zap.Uint32("id", id),
			zap.String("message", message),
		)
	}, nil)
	gl.Enable(gl.DEBUG_OUTPUT)
}

func debugSeverity(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "notification"
	default:
		return "unknown"
	}
}

func debugSource(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "application"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "windowSystem"
	case gl.DEBUG_SOURCE_OTHER:
		return "other"
	default:
		return "unknown"
	}
}

func debugType(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecatedBehavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefinedBehavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl.DEBUG_TYPE_MARKER:
		return "marker"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "pushGroup"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "popGroup"
	case gl.DEBUG_TYPE_OTHER:
		return "other"
	default:
		return "unknown"
	}
}
