package controllers

import (
	"net/http"

	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Push *services.PushService
}

func NewDeviceController(push *services.PushService) *DeviceController {
	return &DeviceController{Push: push}
}

type RegisterDeviceInput struct {
	Platform string `json:"platform" binding:"required,oneof=android ios"`
	Token    string `json:"token" binding:"required"`
}

// RegisterDevice handles POST /api/devices (push notification registration).
func (d *DeviceController) RegisterDevice(c *gin.Context) {
	if d.Push == nil {
		utils.Fail(c, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}

	var input RegisterDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	device, err := d.Push.RegisterDevice(c.Request.Context(), c.GetUint("userID"), input.Platform, input.Token)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "device registration failed")
		return
	}
	utils.OK(c, http.StatusCreated, gin.H{
		"id":       device.ID,
		"platform": device.Platform,
		"enabled":  device.Enabled,
	})
}
