package controller

import (
	"github.com/sirupsen/logrus"
)

type baseController struct {
	name   string
	logger logrus.FieldLogger
}

func newBaseController(name string, logger logrus.FieldLogger) *baseController {
	c := &baseController{
		name:   name,
		logger: logger.WithField("controller", name),
	}

	return c
}
