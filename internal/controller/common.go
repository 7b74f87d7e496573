package controller

import (
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

// principal 取当前调用方, 缺失时已写入 401
func principal(ctx *gin.Context) (util.Principal, bool) {
	p, ok := util.GetPrincipal(ctx)
	if !ok {
		util.Unauthorized(ctx)
	}
	return p, ok
}

// pathID 解析路径参数, 失败时已写入 400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, false
	}
	return id, true
}

// queryID 可选的查询参数, 缺省为 0
func queryID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := util.ParseID(raw)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, false
	}
	return id, true
}
