package state

// Context is the read-only view of the store for one frame.
type Context struct {
	controller *Controller
	watcher    *Watcher
	width      int
	height     int
}

// NewContext binds a controller, a watcher and the terminal size.
func NewContext(c *Controller, w *Watcher, width, height int) *Context {
	return &Context{controller: c, watcher: w, width: width, height: height}
}

// Size returns the terminal size for this frame.
func (ctx *Context) Size() (int, int) {
	return ctx.width, ctx.height
}

// Changed reports whether key was touched by this frame's flush.
func (ctx *Context) Changed(key Key) bool {
	return ctx.watcher.Contains(key)
}

func (ctx *Context) Controller() *Controller {
	return ctx.controller
}

func (ctx *Context) Watcher() *Watcher {
	return ctx.watcher
}
