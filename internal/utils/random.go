package utils

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var staffRoles = []string{"", "店长", "收银", "厨师", "服务员", "保洁"}

var areaColors = []string{"#ef4444", "#f97316", "#eab308", "#22c55e", "#14b8a6", "#3b82f6", "#a855f7", "#ec4899"}

var areaNames = []string{"前厅", "后厨", "收银台", "仓库", "外卖", "吧台", "包间", "门口"}

func GenerateRandomArea(i int) *domain.Area {
	return &domain.Area{
		Name:  fmt.Sprintf("%s%d", areaNames[i%len(areaNames)], i/len(areaNames)+1),
		Color: areaColors[rand.Intn(len(areaColors))],
	}
}

// GenerateRandomStaff 随机生成一个员工，并从 areas 中随机挑选零到两个所属区域
func GenerateRandomStaff(areas []*domain.Area) *domain.StaffMember {
	staff := &domain.StaffMember{
		Name:     GenerateRandomChineseName(),
		Role:     staffRoles[rand.Intn(len(staffRoles))],
		AreaIDs:  []string{},
		IsActive: true,
	}

	if len(areas) == 0 {
		return staff
	}

	n := rand.Intn(min(len(areas), 2) + 1)
	for _, i := range rand.Perm(len(areas))[:n] {
		staff.AreaIDs = append(staff.AreaIDs, areas[i].ID)
	}

	return staff
}

var templateNames = []string{"早班", "中班", "晚班", "通班", "两头班", "夜班"}

// GenerateRandomShiftTemplate 随机生成一个班次模板，有一定概率生成两段式的两头班
func GenerateRandomShiftTemplate(position int32) *domain.ShiftTemplate {
	name := templateNames[int(position)%len(templateNames)]
	if int(position) >= len(templateNames) {
		name = fmt.Sprintf("%s%d", name, int(position)/len(templateNames)+1)
	}

	st := &domain.ShiftTemplate{
		Name:     name,
		Color:    areaColors[rand.Intn(len(areaColors))],
		Position: position,
	}
	st.ShortCode = ShortCodeFromName(st.Name)

	startHour := rand.Intn(10) + 6 // 6~15
	length := rand.Intn(5) + 4     // 4~8
	endHour := min(startHour+length, 23)

	if rand.Intn(4) == 0 && endHour+3 < 23 {
		// 两头班：中间休息至少两个小时
		firstEnd := startHour + 3
		secondStart := firstEnd + rand.Intn(2) + 2
		st.Ranges = []domain.TimeRange{
			{Start: fmt.Sprintf("%02d:00", startHour), End: fmt.Sprintf("%02d:00", firstEnd)},
			{Start: fmt.Sprintf("%02d:00", secondStart), End: fmt.Sprintf("%02d:30", min(secondStart+3, 22))},
		}
		return st
	}

	st.Ranges = []domain.TimeRange{
		{Start: fmt.Sprintf("%02d:00", startHour), End: fmt.Sprintf("%02d:%02d", endHour, rand.Intn(2)*30)},
	}
	return st
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
