package stay

// Accommodation is a catalog entry reshaped from a search result for
// display in the carousel and listing cards.
type Accommodation struct {
	ID              string
	Code            int
	Name            string
	City            string
	Province        string
	Image           string
	Kind            string
	PerNight        int
	DiscountPercent int
	DiscountedPrice int
	PriceText       string
	RateScore       float64
	RateCount       int
	Verified        bool
	Tags            []string
}

// Detail is the full listing used on the accommodation detail page.
type Detail struct {
	Code            int
	Title           string
	Description     string
	City            string
	Province        string
	Images          []Image
	ReservationType string
	RateScore       float64
	RateCount       int
	AreaSize        int
	Bedrooms        int
	Bathrooms       int
	Toilets         int
	BaseCapacity    int
	ExtraCapacity   int
	Amenities       []string
}

type Image struct {
	URL     string
	Caption string
}

// SearchParams selects a page of the catalog.
type SearchParams struct {
	PageSize   int
	PageNumber int
}

// Wire types, matching the listings API's response shapes.

type searchResponse struct {
	Result struct {
		Items []searchItem `json:"items"`
	} `json:"result"`
}

type searchItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Kind     string   `json:"kind"`
	Code     int      `json:"code"`
	Verified bool     `json:"verified"`
	Tags     []string `json:"tags"`
	Location struct {
		City     string `json:"city"`
		Province string `json:"province"`
	} `json:"location"`
	Price struct {
		PerNight        int    `json:"perNight"`
		DiscountPercent int    `json:"discountPercent"`
		DiscountedPrice int    `json:"discountedPrice"`
		Text            string `json:"text"`
	} `json:"price"`
	RateReview struct {
		Score float64 `json:"score"`
		Count int     `json:"count"`
	} `json:"rate_review"`
}

type detailResponse struct {
	Result detailItem `json:"result"`
}

type detailItem struct {
	Code             int    `json:"code"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ReservationType  string `json:"reservationType"`
	PlaceOfResidence struct {
		Area struct {
			City struct {
				Name struct {
					Fa string `json:"fa"`
				} `json:"name"`
				Province struct {
					Name struct {
						Fa string `json:"fa"`
					} `json:"name"`
				} `json:"province"`
			} `json:"city"`
		} `json:"area"`
	} `json:"placeOfResidence"`
	PlaceImages []struct {
		URL     string `json:"url"`
		Caption string `json:"caption"`
	} `json:"placeImages"`
	RateAndReview struct {
		Score float64 `json:"score"`
		Count int     `json:"count"`
	} `json:"rateAndReview"`
	Metrics struct {
		AreaSize       int `json:"areaSize"`
		BedroomsCount  int `json:"bedroomsCount"`
		BathroomsCount int `json:"bathroomsCount"`
		ToiletsCount   int `json:"toiletsCount"`
	} `json:"accommodationMetrics"`
	Capacity struct {
		Base  int `json:"base"`
		Extra int `json:"extra"`
	} `json:"capacity"`
	Amenities []string `json:"amenities"`
}

func (it searchItem) reshape() Accommodation {
	return Accommodation{
		ID:              it.ID,
		Code:            it.Code,
		Name:            it.Name,
		City:            it.Location.City,
		Province:        it.Location.Province,
		Image:           it.Image,
		Kind:            it.Kind,
		PerNight:        it.Price.PerNight,
		DiscountPercent: it.Price.DiscountPercent,
		DiscountedPrice: it.Price.DiscountedPrice,
		PriceText:       it.Price.Text,
		RateScore:       it.RateReview.Score,
		RateCount:       it.RateReview.Count,
		Verified:        it.Verified,
		Tags:            it.Tags,
	}
}

func (it detailItem) reshape() *Detail {
	d := &Detail{
		Code:            it.Code,
		Title:           it.Title,
		Description:     it.Description,
		City:            it.PlaceOfResidence.Area.City.Name.Fa,
		Province:        it.PlaceOfResidence.Area.City.Province.Name.Fa,
		ReservationType: it.ReservationType,
		RateScore:       it.RateAndReview.Score,
		RateCount:       it.RateAndReview.Count,
		AreaSize:        it.Metrics.AreaSize,
		Bedrooms:        it.Metrics.BedroomsCount,
		Bathrooms:       it.Metrics.BathroomsCount,
		Toilets:         it.Metrics.ToiletsCount,
		BaseCapacity:    it.Capacity.Base,
		ExtraCapacity:   it.Capacity.Extra,
		Amenities:       it.Amenities,
	}
	for _, img := range it.PlaceImages {
		d.Images = append(d.Images, Image{URL: img.URL, Caption: img.Caption})
	}
	return d
}
