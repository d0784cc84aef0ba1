package consts

// ContextKeyViewer gin.Context 中保存当前访问者 (*model.User) 的键。
const ContextKeyViewer = "viewer"
