package model

func strPtr(s string) *string { return &s }

// SeedProviders returns the directory entries a fresh in-memory store starts with.
func SeedProviders() []*Provider {
	return []*Provider{
		{
			ProviderID:    "032cb8ca8845a49ba9f669538620aa074000",
			Active:        true,
			Name:          "John Cooper",
			Qualification: "deg1,deg2,deg4",
			Speciality:    "spec1,spec3",
			Phone:         "1238987987",
			Department:    strPtr("Department_A"),
			Organization:  "Organization_Z",
			Location:      strPtr("Bengaluru"),
			Address:       "Street 5, Town 2, Bengaluru, Karnataka",
		},
		{
			ProviderID:    "00b76d7ee122fa477ab1d52df31abd3bbc01",
			Active:        true,
			Name:          "Alice Barmer",
			Qualification: "deg2,deg3",
			Speciality:    "spec1,spec2,spec4",
			Phone:         "2346872346",
			Department:    strPtr("Department_C"),
			Organization:  "Organization_X",
			Location:      strPtr("Mumbai"),
			Address:       "Building 7, City 4, Mumbai, Maharashtra",
		},
		{
			ProviderID:    "2c5d1811da18485ca384853d9e12a801",
			Active:        true,
			Name:          "Kevin Pitt",
			Qualification: "deg2,deg4",
			Speciality:    "spec4",
			Phone:         "4730786325",
			Department:    strPtr("Department_B"),
			Organization:  "Organization_Z",
			Location:      strPtr("Bengaluru"),
			Address:       "Street 5, Town 2, Bengaluru, Karnataka",
		},
		{
			ProviderID:    "055ca722bdef4abc96f8a41ab40769aa",
			Active:        false,
			Name:          "Melissa Anderson",
			Qualification: "deg1",
			Speciality:    "spec1,spec2",
			Phone:         "3678826746",
			Department:    strPtr("Department_B"),
			Organization:  "Organization_Y",
			Address:       "Street 1, Building 7, Town 2, New Delhi",
		},
		{
			ProviderID:    "6635e834e24943f181422b0e68a04ea7",
			Active:        false,
			Name:          "Jonathan Jostar",
			Qualification: "a,b,c",
			Speciality:    "a,b,c",
			Phone:         "1856274967",
			Department:    strPtr("a"),
			Organization:  "a",
			Location:      strPtr("a"),
			Address:       "a",
		},
		{
			ProviderID:    "4eb4597ea50049a59faafdf2b1aa8d64",
			Active:        true,
			Name:          "Bob Tres",
			Qualification: "b,v,c",
			Speciality:    "b,m,n",
			Phone:         "3456832854",
			Department:    strPtr("b"),
			Organization:  "b",
			Location:      strPtr("b"),
			Address:       "b",
		},
		{
			ProviderID:    "8067973e4d88409ab65f44bcf3b4888d",
			Active:        true,
			Name:          "Keanu Reeves",
			Qualification: "b,c,z",
			Speciality:    "r,t,y",
			Phone:         "1727678926",
			Department:    strPtr("b"),
			Organization:  "b",
			Location:      strPtr("b"),
			Address:       "b",
		},
		{
			ProviderID:    "f1203f26a69a4809aa29370b25d29d5e",
			Active:        false,
			Name:          "popeye",
			Qualification: "q,r,t",
			Speciality:    "y,u,n,f",
			Phone:         "87656784569",
			Department:    strPtr("dtgfhj"),
			Organization:  "fdvgbhjm",
			Location:      strPtr("fvgbhj"),
			Address:       "vfchb, gfg hgft",
		},
	}
}
