package domain

type StaffMember struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	AreaIDs  []string `json:"areaIds"`
	IsActive bool     `json:"isActive"`
}

// FirstAreaID 返回员工所属的第一个区域，员工不属于任何区域时返回 nil
func (s *StaffMember) FirstAreaID() *string {
	if len(s.AreaIDs) == 0 {
		return nil
	}
	id := s.AreaIDs[0]
	return &id
}

func (s *StaffMember) InArea(areaID string) bool {
	for _, id := range s.AreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}
