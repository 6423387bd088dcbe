package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/web/middleware"
)

// 统一错误响应 {success:false, code, error}
func respondError(ctx context.Context, c *app.RequestContext, err error) {
	status, code := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		hlog.CtxErrorf(ctx, "request failed path=%s rid=%s: %v", c.Path(), middleware.RequestID(c), err)
	}
	c.JSON(status, utils.H{
		"success": false,
		"code":    code,
		"error":   apperrors.PublicMessage(err),
	})
}

func respondBadRequest(c *app.RequestContext, msg string) {
	c.JSON(http.StatusBadRequest, utils.H{
		"success": false,
		"code":    400001,
		"error":   msg,
	})
}

// 列表响应 {success:true, data:[...]}
func respondList(c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, utils.H{
		"success": true,
		"data":    data,
	})
}

// 路径参数解析为正整数ID
func pathID(c *app.RequestContext, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}
