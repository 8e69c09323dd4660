package get_available_slots

import "github.com/m04kA/consult-booking/pkg/types"

func mustTimeString(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}
