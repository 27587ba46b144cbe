package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule / PageModule 模块可选择实现其中一个或两个接口
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type PageModule interface{ MountPages(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct {
	mu    sync.RWMutex
	api   []APIModule
	pages []PageModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register 根据类型断言分发到 API/Page 列表
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(PageModule); ok {
		r.pages = append(r.pages, m)
	}
}

func (r *Registry) MountAPI(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.api...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func (r *Registry) MountPages(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]PageModule(nil), r.pages...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountPages(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
