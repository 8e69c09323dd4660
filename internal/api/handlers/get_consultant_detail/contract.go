package get_consultant_detail

import (
	"context"

	getConsultantDetail "github.com/m04kA/consult-booking/internal/usecase/get_consultant_detail"
)

type GetConsultantDetailUseCase interface {
	Execute(ctx context.Context, req *getConsultantDetail.Request) (*getConsultantDetail.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
