package domain

import (
	"strconv"
	"time"
)

// WeatherFreshness is how long a cached snapshot stays eligible for fallback use.
const WeatherFreshness = 3 * time.Hour

// Weather condition codes follow the OpenWeatherMap grouping.
const (
	ConditionClear       = 800
	ConditionFewClouds   = 801
	conditionClearBucket = "800"
)

// WeatherSource tells the renderer how a reading was obtained.
type WeatherSource string

const (
	WeatherLive     WeatherSource = "live"
	WeatherGeocoded WeatherSource = "geocoded"
	WeatherCached   WeatherSource = "cache"
	WeatherMock     WeatherSource = "mock"
)

// WeatherPayload is the normalized reading shown by the weather widget.
type WeatherPayload struct {
	TemperatureCelsius float64 `json:"temperatureCelsius"`
	LocationName       string  `json:"locationName"`
	ConditionCode      int     `json:"conditionCode"`
}

// WeatherSnapshot is the last successful fetch, stored under the weatherData key.
type WeatherSnapshot struct {
	Data      WeatherPayload `json:"data"`
	Timestamp int64          `json:"timestamp"` // epoch millis
}

// Fresh reports whether the snapshot is younger than WeatherFreshness at now.
func (s WeatherSnapshot) Fresh(now time.Time) bool {
	age := now.Sub(time.UnixMilli(s.Timestamp))
	return age < WeatherFreshness
}

// MockWeather is the fixed reading used when nothing better is available.
func MockWeather() WeatherPayload {
	return WeatherPayload{
		TemperatureCelsius: 24,
		LocationName:       "New York, NY",
		ConditionCode:      ConditionFewClouds,
	}
}

var weatherIcons = map[string]string{
	"2":                  "thunderstorm",
	"3":                  "drizzle",
	"5":                  "rain",
	"6":                  "snow",
	"7":                  "atmosphere",
	conditionClearBucket: "clear",
	"8":                  "clouds",
}

// WeatherIcon maps a condition code to the icon name the widget renders.
// 800 is clear sky; every other code is bucketed by its hundreds digit.
func WeatherIcon(code int) string {
	bucket := conditionClearBucket
	if code != ConditionClear {
		bucket = strconv.Itoa(code / 100)
	}
	if icon, ok := weatherIcons[bucket]; ok {
		return icon
	}
	return "clear"
}
