package job

var catalog = [...]Department{
	{ID: 1, Name: "Digital Marketing"},
	{ID: 2, Name: "HR & Administration"},
	{ID: 3, Name: "Management"},
	{ID: 4, Name: "Engineering"},
	{ID: 5, Name: "Creative"},
	{ID: 6, Name: "Sales & Marketing"},
	{ID: 7, Name: "Accounts"},
	{ID: 8, Name: "Development"},
}

// Catalog returns the fixed department list in display order.
func Catalog() []Department {
	out := make([]Department, len(catalog))
	copy(out, catalog[:])
	return out
}

func DepartmentByID(id int) (Department, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Department{}, false
}

// Canonical replaces the display name with the catalog's for known ids.
func (d Department) Canonical() Department {
	if c, ok := DepartmentByID(d.ID); ok {
		return c
	}
	return d
}

type DepartmentGroup struct {
	Department Department `json:"department"`
	Jobs       []Job      `json:"jobs"`
}

// GroupByDepartment partitions jobs by department name in a single
// left-to-right pass. Known ids use the catalog name, so stale labels on
// server data still land in the right group; ids outside the catalog keep the
// job's own name. Groups appear in first-encounter order and each keeps the
// collection's relative order.
func GroupByDepartment(jobs []Job) []DepartmentGroup {
	groups := make([]DepartmentGroup, 0)
	pos := make(map[string]int)
	for _, j := range jobs {
		dep := j.Department.Canonical()
		i, ok := pos[dep.Name]
		if !ok {
			i = len(groups)
			pos[dep.Name] = i
			groups = append(groups, DepartmentGroup{Department: dep})
		}
		groups[i].Jobs = append(groups[i].Jobs, j)
	}
	return groups
}
