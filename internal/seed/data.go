package seed

import "github.com/naazbookdepot/shopauth"

type seedUser struct {
	Email    string
	Name     string
	Password string
	Role     shopauth.Role
}

type seedCategory struct {
	Slug        string
	Name        string
	Description string
	Products    []seedProduct
}

type seedProduct struct {
	Slug        string
	Name        string
	Description string
	// Price in paise.
	Price int64
	Stock int
	Image string
}

var users = []seedUser{
	{Email: "admin@naazbookdepot.com", Name: "Admin User", Password: "admin123", Role: shopauth.RoleAdmin},
	{Email: "customer@naazbookdepot.com", Name: "John Customer", Password: "customer123", Role: shopauth.RoleUser},
}

var catalog = []seedCategory{
	{
		Slug: "quran-tafseer", Name: "Quran & Tafseer",
		Description: "Authentic Qurans and comprehensive Tafseer collections",
		Products: []seedProduct{
			{Slug: "tafseer-ibn-kathir", Name: "Tafseer Ibn Kathir", Description: "A renowned and comprehensive commentary on the Quran by Ibn Kathir.", Price: 4999, Stock: 20, Image: "/Images/Tafseer Ibn Kathir.jpg"},
			{Slug: "the-noble-quran", Name: "The Noble Quran", Description: "A clear and accurate English translation of the Quran with commentary.", Price: 2999, Stock: 30, Image: "/Images/About Naaz Book Depot.jpg"},
			{Slug: "quran-arabic", Name: "Quran (Arabic)", Description: "The Holy Quran in Arabic script, Uthmani print.", Price: 1999, Stock: 40, Image: "/Images/Image+Background.jpg"},
		},
	},
	{
		Slug: "hadith", Name: "Hadith Collections",
		Description: "Classical and contemporary collections of Hadith",
		Products: []seedProduct{
			{Slug: "sahih-al-bukhari", Name: "Sahih Al-Bukhari", Description: "The most authentic collection of Hadith compiled by Imam Bukhari.", Price: 5999, Stock: 15, Image: "/Images/Sahih Al-Bukhari.jpg"},
			{Slug: "riyadh-as-salihin", Name: "Riyadh as-Salihin", Description: "A famous collection of authentic Hadith compiled by Imam Nawawi.", Price: 3499, Stock: 25, Image: "/Images/Riyadh as-Salihin.jpg"},
			{Slug: "forty-hadith-qudsi", Name: "Forty Hadith Qudsi", Description: "A collection of 40 sacred Hadith Qudsi with English translation.", Price: 1499, Stock: 35, Image: "/Images/About Naaz Book Depot.jpg"},
		},
	},
	{
		Slug: "fiqh", Name: "Islamic Jurisprudence",
		Description: "Books on Islamic law and jurisprudence (Fiqh)",
		Products: []seedProduct{
			{Slug: "fiqh-us-sunnah", Name: "Fiqh-us-Sunnah", Description: "A comprehensive manual of Islamic jurisprudence by Sayyid Sabiq.", Price: 4499, Stock: 18, Image: "/Images/About Naaz Book Depot.jpg"},
			{Slug: "bulugh-al-maram", Name: "Bulugh al-Maram", Description: "A classic collection of hadiths related to Islamic jurisprudence by Ibn Hajar al-Asqalani.", Price: 2499, Stock: 22, Image: "/Images/About Naaz Book Depot.jpg"},
			{Slug: "al-muwatta", Name: "Al-Muwatta", Description: "The earliest written collection of hadith comprising the subjects of Islamic law by Imam Malik.", Price: 2999, Stock: 20, Image: "/Images/About Naaz Book Depot.jpg"},
		},
	},
	{
		Slug: "perfume-ittar", Name: "Perfume & Ittar",
		Description: "A curated collection of authentic perfumes and ittars.",
		Products: []seedProduct{
			{Slug: "classic-attar", Name: "Classic Attar", Description: "Traditional attar with a long-lasting fragrance.", Price: 1599, Stock: 50, Image: "/Images/ittars.jpeg"},
			{Slug: "rose-spray-perfume", Name: "Rose Spray Perfume", Description: "Refreshing rose spray perfume for daily use.", Price: 1299, Stock: 40, Image: "/Images/ittars.jpeg"},
			{Slug: "musk-perfume-oil", Name: "Musk Perfume Oil", Description: "Pure musk oil for a subtle, elegant scent.", Price: 1899, Stock: 30, Image: "/Images/ittars.jpeg"},
			{Slug: "combo-perfume-pack", Name: "Combo Perfume Pack", Description: "A combo pack of our best-selling perfumes.", Price: 2999, Stock: 20, Image: "/Images/ittars.jpeg"},
		},
	},
	{
		Slug: "rehal", Name: "Rehal",
		Description: "Beautifully crafted rehal (Quran stands) for your home and masjid.",
		Products: []seedProduct{
			{Slug: "wooden-rehal", Name: "Wooden Rehal", Description: "Handcrafted wooden rehal for Quran.", Price: 2499, Stock: 15, Image: "/Images/Rehals.jpeg"},
			{Slug: "plastic-rehal", Name: "Plastic Rehal", Description: "Durable plastic rehal, lightweight and portable.", Price: 1499, Stock: 25, Image: "/Images/Rehals.jpeg"},
		},
	},
}
