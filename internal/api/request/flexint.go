package request

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcoot/kmapgame/internal/model"
)

// FlexInt is an integer that also accepts fractional numbers (truncated)
// and numeric strings on the wire.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidElapsed, err)
	}

	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return fmt.Errorf("%w: %v out of range", model.ErrInvalidElapsed, v)
		}
		*f = FlexInt(math.Trunc(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidElapsed, v)
		}
		*f = FlexInt(n)
	default:
		return fmt.Errorf("%w: %s", model.ErrInvalidElapsed, string(data))
	}
	return nil
}
