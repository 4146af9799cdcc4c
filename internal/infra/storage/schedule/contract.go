package schedule

import "github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
