package submission

// OptionUnspecified is the default entry present in both option sets.
const OptionUnspecified = "نامشخص"

// BusinessCategoryOptions is the closed set of business category
// labels the form offers. Membership is checked verbatim; the set is
// versioned only by redeploying this list.
var BusinessCategoryOptions = []string{
	OptionUnspecified,
	"کشاورزی و دامداری",
	"استخراج و معدن",
	"ساخت و تولید",
	"ساخت و ساز و املاک",
	"خرده‌فروشی و عمده‌فروشی",
	"خدمات مالی و بیمه",
	"فناوری اطلاعات و ارتباطات",
	"بهداشت و درمان",
	"آموزش و پرورش",
	"گردشگری، هتلداری و رستوران",
	"حمل و نقل و لجستیک",
	"هنر، سرگرمی و رسانه",
	"خدمات حرفه‌ای، علمی و فنی",
	"اداری و پشتیبانی",
	"دولت و سازمان‌های عمومی",
	"تأمین انرژی و آب",
	"مخابرات",
	"بازاریابی و تبلیغات",
	"صنایع دستی و تولید سنتی",
	"مد و پوشاک",
	"غذا و نوشیدنی",
	"خدمات مشاوره و مدیریت",
	"ورزش و تفریحات",
	"حقوقی و خدمات قضایی",
	"املاک و مستغلات",
	"تحقیق و توسعه",
	"خدمات اجتماعی و خیریه",
}

// BusinessOwnerRelationOptions is the closed set of labels describing
// the respondent's relation to the business owner.
var BusinessOwnerRelationOptions = []string{
	OptionUnspecified,
	"خودم",
	"خانواده",
	"فامیل",
	"دوست",
	"همکار",
	"سایر",
}
