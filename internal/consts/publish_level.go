package consts

// PublishLevel 控制 entry 的可见范围。
type PublishLevel int

const (
	// PublishPrivate 仅所有者可见
	PublishPrivate PublishLevel = 0
	// PublishFollowers 所有者与关注者可见
	PublishFollowers PublishLevel = 1
	// PublishPublic 所有人可见（包括匿名访问）
	PublishPublic PublishLevel = 2
)

// Valid 判断是否为合法的可见级别，非法值直接拒绝而不是修正。
func (l PublishLevel) Valid() bool {
	return l == PublishPrivate || l == PublishFollowers || l == PublishPublic
}
