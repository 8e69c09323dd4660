package consultant

import "github.com/m04kA/consult-booking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
