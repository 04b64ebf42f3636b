package config

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var durationType = reflect.TypeFor[time.Duration]()

// SecondsToDurationHook decodes bare numbers into time.Duration as seconds,
// so RESPONSE_TIMEOUT=30.0 and "30s" both mean thirty seconds. Strings with
// a unit are left to the standard duration hook.
func SecondsToDurationHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		var secs float64
		switch v := data.(type) {
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return data, nil
			}
			secs = f
		case float64:
			secs = v
		case float32:
			secs = float64(v)
		case int:
			secs = float64(v)
		case int64:
			secs = float64(v)
		default:
			return data, nil
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		SecondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}
