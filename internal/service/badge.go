package service

// 徽章阈值，从高到低匹配
var badgeTiers = []struct {
	Min  int
	Name string
}{
	{4000, "Platinum"},
	{3000, "Gold"},
	{2000, "Silver"},
	{1000, "Bronze"},
}

// BadgeFor 积分对应的徽章，不足 1000 为空
func BadgeFor(points int) string {
	for _, t := range badgeTiers {
		if points >= t.Min {
			return t.Name
		}
	}
	return ""
}
