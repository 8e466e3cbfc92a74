package extraction

import "fmt"

// Kind identifies a feature type in a Catalog
type Kind int

const (
	PowerSpectrum Kind = iota
	MagnitudeSpectrum
	FFTBinFrequencyLabels
	MFCC
	SpectralCentroid
	Compactness
	SpectralRolloffPoint
	RootMeanSquare
	ZeroCrossings
	LPC
	PeakDetection
	ConstantQ
	Chroma
	SpectralFlux
	SpectralVariability
	FractionOfLowEnergyWindows
	BeatHistogram
	BeatHistogramBinLabels
	StrongestBeat
	BeatSum
	StrengthOfStrongestBeat
	StrongestFrequencyViaZeroCrossings
	StrongestFrequencyViaSpectralCentroid
	StrongestFrequencyViaFFTMaximum

	// FirstCustomKind is the lowest id free for kinds registered by callers
	FirstCustomKind Kind = 1000
)

var kindIDs = map[Kind]string{
	PowerSpectrum:                         "POWER_SPECTRUM",
	MagnitudeSpectrum:                     "MAGNITUDE_SPECTRUM",
	FFTBinFrequencyLabels:                 "FFT_BIN_FREQUENCY_LABELS",
	MFCC:                                  "MFCC",
	SpectralCentroid:                      "SPECTRAL_CENTROID",
	Compactness:                           "COMPACTNESS",
	SpectralRolloffPoint:                  "SPECTRAL_ROLLOFF_POINT",
	RootMeanSquare:                        "ROOT_MEAN_SQUARE",
	ZeroCrossings:                         "ZERO_CROSSINGS",
	LPC:                                   "LPC",
	PeakDetection:                         "PEAK_DETECTION",
	ConstantQ:                             "CONSTANTQ",
	Chroma:                                "CHROMA",
	SpectralFlux:                          "SPECTRAL_FLUX",
	SpectralVariability:                   "SPECTRAL_VARIABILITY",
	FractionOfLowEnergyWindows:            "FRACTION_OF_LOW_ENERGY_WINDOWS",
	BeatHistogram:                         "BEAT_HISTOGRAM",
	BeatHistogramBinLabels:                "BEAT_HISTOGRAM_BIN_LABELS",
	StrongestBeat:                         "STRONGEST_BEAT",
	BeatSum:                               "BEAT_SUM",
	StrengthOfStrongestBeat:               "STRENGTH_OF_STRONGEST_BEAT",
	StrongestFrequencyViaZeroCrossings:    "STRONGEST_FREQUENCY_VIA_ZERO_CROSSINGS",
	StrongestFrequencyViaSpectralCentroid: "STRONGEST_FREQUENCY_VIA_SPECTRAL_CENTROID",
	StrongestFrequencyViaFFTMaximum:       "STRONGEST_FREQUENCY_VIA_FFT_MAXIMUM",
}

// String returns the SCREAMING_SNAKE identifier of a built-in kind
func (k Kind) String() string {
	if id, ok := kindIDs[k]; ok {
		return id
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
