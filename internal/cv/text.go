package cv

// MapText rewrites every rich-text field of doc with f. Item IDs and
// section icons are identifiers, not text, and are left alone.
func MapText(doc *Document, f func(string) string) {
	p := &doc.Personal
	for _, field := range []*string{
		&p.FirstName, &p.LastName, &p.Title, &p.Subtitle, &p.Website,
		&p.Email, &p.Phone, &p.LinkedIn, &p.Company,
	} {
		*field = f(*field)
	}
	mapStrings(doc.Summary, f)
	for i := range doc.Experiences {
		e := &doc.Experiences[i]
		e.Title, e.Client = f(e.Title), f(e.Client)
		e.StartDate, e.EndDate = f(e.StartDate), f(e.EndDate)
		for j := range e.Missions {
			m := &e.Missions[j]
			m.Name, m.Tools = f(m.Name), f(m.Tools)
			mapStrings(m.Tasks, f)
		}
	}
	for i := range doc.ProfileSkills {
		doc.ProfileSkills[i].Name = f(doc.ProfileSkills[i].Name)
	}
	for i := range doc.Skills {
		s := &doc.Skills[i]
		s.Name, s.Details = f(s.Name), f(s.Details)
	}
	for i := range doc.Education {
		e := &doc.Education[i]
		e.Years, e.Degree, e.School = f(e.Years), f(e.Degree), f(e.School)
	}
}

func mapStrings(values []string, f func(string) string) {
	for i := range values {
		values[i] = f(values[i])
	}
}
